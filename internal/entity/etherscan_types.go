package entity

// AccountResponse is the envelope returned by the explorer's account module
// (balance and tokenbalance actions). Status "1" means success; status "0"
// carries the failure detail in Message/Result.
type AccountResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// ProxyResponse is the JSON-RPC shaped envelope returned by the explorer's
// proxy module (eth_call).
type ProxyResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Result  string      `json:"result"`
	Error   *ProxyError `json:"error"`
}

// ProxyError is the JSON-RPC error object of a failed proxy call.
type ProxyError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
