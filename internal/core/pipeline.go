package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"wellmate-chatbot/internal/llm"
	"wellmate-chatbot/pkg"
)

// Retriever fetches the documents most relevant to a standalone question.
type Retriever interface {
	TopDocuments(ctx context.Context, query string, k int) ([]pkg.Document, error)
}

// Pipeline produces a grounded, constrained answer for one chat turn:
// contextualize the question against prior turns, retrieve the single most
// relevant document, generate a persona answer, then apply the constraint
// filter and fold the exchange into the history buffer.
//
// Any failure from the model or the index aborts the whole turn; no partial
// answer is kept or retried.
type Pipeline struct {
	LLM        llm.Client
	Retriever  Retriever
	MaxHistory int
}

// NewPipeline constructs a Pipeline. maxHistory bounds the buffer after each
// exchange.
func NewPipeline(client llm.Client, retriever Retriever, maxHistory int) *Pipeline {
	return &Pipeline{LLM: client, Retriever: retriever, MaxHistory: maxHistory}
}

// Answer runs one chat turn. On success the constrained reply is returned
// and history holds the appended human+ai pair, truncated to MaxHistory.
// On error the history is left untouched.
func (p *Pipeline) Answer(ctx context.Context, profile pkg.PatientInfo, history *History, message string) (string, error) {
	standalone, err := p.contextualize(ctx, history, message)
	if err != nil {
		return "", fmt.Errorf("contextualize question: %w", err)
	}

	docs, err := p.Retriever.TopDocuments(ctx, standalone, 1)
	if err != nil {
		return "", fmt.Errorf("retrieve documents: %w", err)
	}
	log.Debug().Int("documents", len(docs)).Str("standalone", standalone).Msg("retrieval complete")

	raw, err := p.generate(ctx, profile, history, message, docs)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	answer := Constrain(raw, history.Len())

	history.Append(pkg.RoleHuman, message)
	history.Append(pkg.RoleAI, answer)
	history.Truncate(p.MaxHistory)

	return answer, nil
}

// contextualize rewrites a follow-up question into a standalone one using
// the prior turns. With no history the message already stands alone and is
// passed through without a model call.
func (p *Pipeline) contextualize(ctx context.Context, history *History, message string) (string, error) {
	if history.Len() == 0 {
		return message, nil
	}
	messages := make([]llm.Message, 0, history.Len()+2)
	messages = append(messages, llm.Message{Role: "system", Content: ContextualizePrompt})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, llm.Message{Role: "user", Content: message})

	standalone, err := p.LLM.Chat(ctx, messages)
	if err != nil {
		return "", err
	}
	if standalone = strings.TrimSpace(standalone); standalone == "" {
		return message, nil
	}
	return standalone, nil
}

// generate produces the raw candidate answer. The persona prompt embeds the
// patient profile and the retrieved context; the original (not the
// standalone) message is what the model answers.
func (p *Pipeline) generate(ctx context.Context, profile pkg.PatientInfo, history *History, message string, docs []pkg.Document) (string, error) {
	contents := make([]string, 0, len(docs))
	for _, d := range docs {
		contents = append(contents, d.Content)
	}
	docContext := strings.Join(contents, "\n\n")

	messages := make([]llm.Message, 0, history.Len()+2)
	messages = append(messages, llm.Message{Role: "system", Content: PersonaPrompt(profile, docContext)})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, llm.Message{Role: "user", Content: message})

	return p.LLM.Chat(ctx, messages)
}

func historyMessages(history *History) []llm.Message {
	msgs := make([]llm.Message, 0, history.Len())
	for _, t := range history.Stored() {
		role := "user"
		if t.Type == pkg.RoleAI {
			role = "assistant"
		}
		msgs = append(msgs, llm.Message{Role: role, Content: t.Content})
	}
	return msgs
}
