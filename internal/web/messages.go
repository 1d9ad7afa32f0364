package web

import (
	"math"

	"github.com/codefionn/yardcalc/internal/calc"
)

// Message types
const (
	MessageTypeCompute = "compute"
	MessageTypeExplain = "explain"
	MessageTypeResult  = "result"
	MessageTypeError   = "error"
)

// ComputeRequest is the body accepted by the compute and explain endpoints
type ComputeRequest struct {
	Expression string `json:"expression"`
}

// ComputeResponse carries either a result or an error for one expression.
// Result is omitted for NaN and infinities, which JSON cannot represent;
// Formatted always holds the printable form.
type ComputeResponse struct {
	Expression string   `json:"expression"`
	Result     *float64 `json:"result,omitempty"`
	Formatted  string   `json:"formatted,omitempty"`
	Error      string   `json:"error,omitempty"`
	Kind       string   `json:"kind,omitempty"`
}

// ExplainResponse shows every pipeline stage for one expression
type ExplainResponse struct {
	ComputeResponse
	Tokens  []string `json:"tokens,omitempty"`
	Folded  []string `json:"folded,omitempty"`
	Postfix []string `json:"postfix,omitempty"`
}

// WebMessage represents a message sent over WebSocket
type WebMessage struct {
	Type       string           `json:"type"`
	Expression string           `json:"expression,omitempty"`
	Response   *ComputeResponse `json:"response,omitempty"`
	Explain    *ExplainResponse `json:"explain,omitempty"`
	Error      string           `json:"error,omitempty"`
}

func newComputeResponse(expression string, value float64, err error) ComputeResponse {
	resp := ComputeResponse{Expression: expression}
	if err != nil {
		resp.Error = err.Error()
		resp.Kind = calc.KindName(err)
		return resp
	}
	resp.Formatted = calc.FormatResult(value)
	if !math.IsNaN(value) && !math.IsInf(value, 0) {
		resp.Result = &value
	}
	return resp
}

func newExplainResponse(ex *calc.Explanation, err error) ExplainResponse {
	return ExplainResponse{
		ComputeResponse: newComputeResponse(ex.Expression, ex.Result, err),
		Tokens:          tokenStrings(ex.Tokens),
		Folded:          tokenStrings(ex.Folded),
		Postfix:         tokenStrings(ex.Postfix),
	}
}

func tokenStrings(tokens []calc.Token) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.String()
	}
	return out
}
