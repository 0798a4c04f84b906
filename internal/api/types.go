package api

// ActionGetResponse is the metadata a wallet renders for the mint action.
type ActionGetResponse struct {
	Icon        string `json:"icon"`
	Label       string `json:"label"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ActionPostRequest struct {
	Account string `json:"account"`
}

// ActionPostResponse carries the base64 unsigned transaction.
type ActionPostResponse struct {
	Transaction string `json:"transaction"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type ActionRule struct {
	PathPattern string `json:"pathPattern"`
	APIPath     string `json:"apiPath"`
}

// ActionsJSON maps website paths to action endpoints.
type ActionsJSON struct {
	Rules []ActionRule `json:"rules"`
}

type ReadinessResponse struct {
	Status   string   `json:"status"`
	Problems []string `json:"problems,omitempty"`
}
