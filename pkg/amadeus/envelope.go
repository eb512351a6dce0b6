package amadeus

import "encoding/json"

// apiError is one entry of the provider's error envelope.
type apiError struct {
	Status int    `json:"status"`
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type errorEnvelope struct {
	Errors           []apiError `json:"errors"`
	ErrorDescription string     `json:"error_description"`
	Message          string     `json:"message"`
}

// upstreamDetail extracts the most specific human-readable detail from an
// error payload: first error's detail, then its title, then the top-level
// message fields, then a generic fallback.
func upstreamDetail(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		if len(env.Errors) > 0 {
			if env.Errors[0].Detail != "" {
				return env.Errors[0].Detail
			}
			if env.Errors[0].Title != "" {
				return env.Errors[0].Title
			}
		}
		if env.ErrorDescription != "" {
			return env.ErrorDescription
		}
		if env.Message != "" {
			return env.Message
		}
	}
	return "flight provider rejected the request"
}
