package reconcile

import (
	"errors"

	"github.com/larder-dev/larder/internal/common"
)

// detailOf extracts the server's human-readable detail from an error
// chain, or returns "".
func detailOf(err error) string {
	var reqErr *common.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Detail
	}
	return ""
}
