package prompt

import (
	"fmt"
	"strings"

	"catalog-chat-be/pkg/rag/retrieval"
)

// DefaultPersona is the assistant's fixed instruction set. The exact
// wording is configuration; deployments may override it via config.
const DefaultPersona = `You are a friendly shopping assistant for an electronics store.
Answer ONLY from the catalog context supplied to you in this conversation.
If the question is not about our products, politely steer the customer back to product discussion.
Keep answers short, concrete, and include prices when they are available.
Never invent products, prices, or availability.`

// BuildClassification asks whether the query concerns the product
// catalog, given the known catalog keyword vocabulary. The instruction
// demands a bare yes/no; any other output is treated as "no" downstream.
func BuildClassification(query string, tags []string) string {
	var b strings.Builder
	b.WriteString("You are a strict classifier for an e-commerce catalog assistant.\n")
	b.WriteString("Known catalog keywords (brands, categories, tags):\n")
	b.WriteString(strings.Join(tags, ", "))
	b.WriteString("\n\nQuestion: is the following customer message about the product catalog?\n")
	b.WriteString("Message: ")
	b.WriteString(query)
	b.WriteString("\n\nAnswer with exactly one word, \"yes\" or \"no\". No punctuation, no explanation.")
	return b.String()
}

// BuildRewrite asks for a standalone reformulation of the query given the
// conversation so far. The model must not answer, only rewrite.
func BuildRewrite(query string, historyLines []string) string {
	var b strings.Builder
	b.WriteString("Given the conversation below, rewrite the final customer message as a single standalone question that can be understood without the conversation.\n")
	b.WriteString("Do NOT answer the question. Output only the rewritten question, in the customer's language.\n\n")
	b.WriteString("Conversation:\n")
	for _, line := range historyLines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\nFinal customer message: ")
	b.WriteString(query)
	return b.String()
}

// BuildGroundedContext renders surviving retrieval results into the
// context block injected as a system turn before the grounded completion.
func BuildGroundedContext(docs []retrieval.FusedDocument) string {
	var b strings.Builder
	b.WriteString("Catalog context. These are the only products you may reference:\n")
	for i, doc := range docs {
		b.WriteString(fmt.Sprintf("\n--- Product %d ---\n", i+1))
		b.WriteString(fmt.Sprintf("Name: %s\n", doc.Title))
		if doc.Brand != "" {
			b.WriteString(fmt.Sprintf("Brand: %s\n", doc.Brand))
		}
		if len(doc.CategoryTags) > 0 {
			b.WriteString(fmt.Sprintf("Categories: %s\n", strings.Join(doc.CategoryTags, ", ")))
		}
		if doc.Price > 0 {
			b.WriteString(fmt.Sprintf("Price: %.0f\n", doc.Price))
		}
		if doc.Description != "" {
			b.WriteString(fmt.Sprintf("Description: %s\n", doc.Description))
		}
	}
	return b.String()
}
