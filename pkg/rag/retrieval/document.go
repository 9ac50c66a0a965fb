package retrieval

// Document is one candidate catalog entry returned by search. Constructed
// per query, never persisted.
//
// Similarity is the relevance score of the document for the query. Both
// search paths report it as a similarity (cosine similarity for vector
// search, normalized ts_rank for keyword search): HIGHER IS BETTER. The
// agent's threshold filter relies on this polarity.
type Document struct {
	ID           string
	Title        string
	Description  string
	Price        float64
	Brand        string
	CategoryTags []string
	Similarity   float64
}

// FusedDocument is a Document annotated with its fused rank score after
// combining multiple ranked lists. The payload is the first-seen
// occurrence of the document id across the input lists.
type FusedDocument struct {
	Document
	FusedScore float64
}
