package helper

import (
	"net/http"

	types "mpesa-gateway/internal/common/type"
	"mpesa-gateway/internal/pkg/logger"
)

// ParseResponse fills in the defaults a handler relies on: a status code, a
// message, and a 500 for an error reported without one.
func ParseResponse(r *types.Response) *types.Response {
	if r.Code == 0 {
		if r.Error != nil {
			r.Code = http.StatusInternalServerError
		} else {
			r.Code = http.StatusOK
		}
	}
	if r.Message == "" {
		r.Message = http.StatusText(r.Code)
	}
	if r.Error != nil {
		logger.Error.Printf("%d %s: %v", r.Code, r.Message, r.Error)
	}
	return r
}

func ToResponseAPI(r *types.Response, requestID string) *types.ResponseAPI {
	res := &types.ResponseAPI{
		Status:    r.Code,
		Message:   r.Message,
		Data:      r.Data,
		RequestID: requestID,
	}
	if r.Error != nil {
		res.Error = r.Error.Error()
	}
	return res
}
