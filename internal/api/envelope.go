package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/raygaledev/kiasu/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the versioned
// envelope: {"v":1,"success":true,"data":...} or
// {"v":1,"success":false,"error":"...","code":"...","message":"..."}.
// Raw byte bodies (avatars) pass through untouched.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch body := v.(type) {
	case []byte:
		return body, nil
	case response.Envelope, *response.Envelope:
		return body, nil
	case *APIError:
		return response.Envelope{
			Version: response.Version,
			Success: false,
			Error:   body.Message,
			Code:    body.Code,
			Message: body.Message,
			Details: body.Details,
		}, nil
	default:
		return response.Envelope{
			Version: response.Version,
			Success: true,
			Data:    v,
		}, nil
	}
}
