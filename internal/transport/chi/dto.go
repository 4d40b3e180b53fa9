package chi

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type upsertRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type upsertResponse struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
}

type queryRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type hit struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

type queryResponse struct {
	Hits []hit `json:"hits"`
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Vector     []float32 `json:"vector"`
	Dimensions int       `json:"dimensions"`
}

type batchEmbedRequest struct {
	Texts []string `json:"texts"`
}

type batchEmbedResponse struct {
	Vectors [][]float32 `json:"vectors"`
}

type statsResponse struct {
	Documents  int    `json:"documents"`
	Dimensions int    `json:"dimensions"`
	DataPath   string `json:"data_path,omitempty"`
}
