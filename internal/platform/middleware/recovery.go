package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	dErrors "github.com/AmineOzil/user-registration/pkg/domain-errors"
	"github.com/AmineOzil/user-registration/pkg/platform/httputil"
)

// Recovery turns panics into ERR_INTERNAL responses. The panic value and
// stack go to the error writer's log and reporter, never to the caller.
func Recovery(ew *httputil.ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				cause := fmt.Errorf("panic: %v\n%s", rec, debug.Stack())
				ew.WriteError(w, r, dErrors.Wrap(cause, dErrors.CodeInternal, "recovered from panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
