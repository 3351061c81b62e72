package dto

import "time"

// ErrorResponse is the standard JSON error body of the API.
type ErrorResponse struct {
	Message      string    `json:"message" example:"no data found"`
	ErrorDetails string    `json:"error_details,omitempty" example:"MalformedRecord: row 3"`
	Code         string    `json:"code,omitempty" example:"MalformedRecord"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewErrorResponse builds an ErrorResponse; err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

// WithCode returns a copy of r tagged with an error code name.
func (r ErrorResponse) WithCode(code string) ErrorResponse {
	r.Code = code
	return r
}

// Error implements the error interface so the response can travel through gin's c.Error.
func (r ErrorResponse) Error() string {
	if r.ErrorDetails == "" {
		return r.Message
	}
	return r.Message + ": " + r.ErrorDetails
}
