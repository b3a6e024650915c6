package aws

import (
	"errors"
	"slices"

	"github.com/aws/smithy-go"
)

// Error codes returned by EC2 when an id no longer resolves
var (
	volumeNotFoundCodes   = []string{"InvalidVolume.NotFound", "InvalidVolumeID.Malformed"}
	instanceNotFoundCodes = []string{"InvalidInstanceID.NotFound", "InvalidInstanceID.Malformed"}
)

// accessDeniedCodes cover the spellings used across services
var accessDeniedCodes = []string{"AccessDenied", "AccessDeniedException", "UnauthorizedOperation"}

// ErrorCode returns the API error code carried by err, or "" when err is not an API error
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// hasErrorCode reports whether err is an API error with one of codes
func hasErrorCode(err error, codes ...string) bool {
	code := ErrorCode(err)
	return code != "" && slices.Contains(codes, code)
}

// IsAccessDenied reports whether err is an authorization failure
func IsAccessDenied(err error) bool {
	return hasErrorCode(err, accessDeniedCodes...)
}
