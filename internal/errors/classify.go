package errors

import (
	stderrors "errors"

	"github.com/vango-dev/pagebake/pkg/publish"
	"github.com/vango-dev/pagebake/pkg/render"
	"github.com/vango-dev/pagebake/pkg/router"
)

var routeCodes = []struct {
	kind error
	code string
}{
	{router.ErrDuplicateRoute, "E120"},
	{router.ErrDuplicateResolvedPath, "E121"},
	{router.ErrDuplicatePrefix, "E122"},
	{router.ErrDuplicateFallback, "E123"},
	{router.ErrConflictingFallback, "E123"},
	{router.ErrInvalidPath, "E124"},
	{router.ErrInvalidEndpoint, "E125"},
	{router.ErrRedirectCycle, "E126"},
}

// Classify maps an error returned by the router, render or publish packages
// to its registered code. The original error is wrapped so every joined
// failure is still printed. Errors that already are a *PagebakeError are
// returned as is; unknown errors report false.
func Classify(err error) (*PagebakeError, bool) {
	if err == nil {
		return nil, false
	}

	var pe *PagebakeError
	if stderrors.As(err, &pe) {
		return pe, true
	}

	var re *router.Error
	if stderrors.As(err, &re) {
		for _, rc := range routeCodes {
			if stderrors.Is(re.Kind, rc.kind) {
				out := New(rc.code).Wrap(err)
				if len(re.Sites) > 0 {
					out.WithSite(re.Sites[len(re.Sites)-1])
				}
				return out, true
			}
		}
	}

	var pageErr *render.PageError
	if stderrors.As(err, &pageErr) {
		code := "E130"
		if stderrors.Is(pageErr.Kind, render.ErrOutputCollision) {
			code = "E131"
		}
		return New(code).Wrap(err).WithSite(pageErr.Site), true
	}

	var persistErr *publish.PersistError
	if stderrors.As(err, &persistErr) {
		return New("E140").Wrap(err), true
	}

	return nil, false
}
