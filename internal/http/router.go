package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NewRouter builds the gin engine with CORS restricted to the configured
// origins, a signed cookie session, and request logging, then registers the
// API routes.
func NewRouter(s *Server, secretKey string, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestLogger(),
		cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		sessions.Sessions("wellmate_session", cookie.NewStore([]byte(secretKey))),
	)
	s.Register(r)
	return r
}

// requestLogger emits one structured line per request with a generated
// request id for correlation.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)

		c.Next()

		log.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
