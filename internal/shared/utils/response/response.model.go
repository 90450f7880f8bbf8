package response

// Envelope is the JSON body written by infrastructure layers: auth middleware
// rejections and rate-limit responses. Domain handlers shape their own
// payloads; the envelope keeps the cross-cutting surfaces uniform.
type Envelope struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
