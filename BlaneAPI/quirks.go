package BlaneAPI

import "strings"

// Known backend defects translated into messages an operator can act on.
// Everything in this file exists to paper over bugs on the Blane side and
// should be deleted once the backend fixes them.

// TranslateBackendQuirk rewrites APIError messages for two known faults:
//
//  1. The transfer-processing-day validation rejects every weekday except
//     Friday, regardless of what the settings screen claims.
//  2. The transfer_status column is too narrow and MySQL truncates some
//     status values, surfacing as an opaque 500.
//
// Unrecognized errors pass through untouched.
func TranslateBackendQuirk(apiErr *APIError) *APIError {
	if apiErr == nil {
		return nil
	}

	if msg, ok := apiErr.Fields["transfer_date"]; ok && mentionsProcessingDay(msg) {
		apiErr.Fields["transfer_date"] = "The backend currently only accepts transfer dates falling on a Friday. Pick the next Friday and retry."
		return apiErr
	}
	if mentionsProcessingDay(apiErr.Message) {
		apiErr.Message = "The backend currently only accepts transfer dates falling on a Friday. Pick the next Friday and retry."
		return apiErr
	}

	if strings.Contains(apiErr.Message, "Data truncated for column 'transfer_status'") {
		apiErr.Message = "The backend database rejected this transfer status (truncated column). The status was not changed; contact the platform team."
	}

	return apiErr
}

func mentionsProcessingDay(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "processing day") ||
		(strings.Contains(lower, "transfer date") && strings.Contains(lower, "day"))
}
