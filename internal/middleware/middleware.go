package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/ChatPDF/internal/adapter/utils"
	"github.com/akolanti/ChatPDF/internal/metrics"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

// Wrap runs trace injection, auth and rate limiting before next, then counts
// the request by route pattern and status.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if !handleBadRequest(re) {
			metrics.HttpRequestsTotal.WithLabelValues(utils.RoutePattern(re.req), strconv.Itoa(rec.Status)).Inc()
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(utils.RoutePattern(re.req), strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func WrapHandler(next http.Handler) http.Handler {
	return Wrap(next.ServeHTTP)
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re = injectTrace(re)
	re.logger.Debug("New request received", "method", re.req.Method, "path", re.req.URL.Path)

	re = authenticate(re)
	if re.badRequest.isBadRequest {
		return re //stop if auth fails
	}
	return rateLimiter(re)
}
