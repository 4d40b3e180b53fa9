package domain

// Document is a stored text document with its embedding.
type Document struct {
	ID     string
	Text   string
	Vector []float32 // not exposed to clients
}

// Hit is a single query result.
type Hit struct {
	ID    string
	Text  string
	Score float64
}

// Stats describes the current state of the index.
type Stats struct {
	Documents  int
	Dimensions int
	DataPath   string // empty when the index is memory-only
}
