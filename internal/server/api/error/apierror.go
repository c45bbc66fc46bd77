// Package apierror holds the problem values shared by the auth handshake
// and the client, which cannot import the api package.
package apierror

import "github.com/Alia5/padlink/apitypes"

func ErrUnauthorized(detail string) apitypes.ApiError {
	return apitypes.ApiError{Status: 401, Title: "Unauthorized", Detail: detail}
}
