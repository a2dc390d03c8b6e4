package middleware

import (
	"context"

	"github.com/akolanti/kbchat/internal/adapter/utils"
	"github.com/akolanti/kbchat/internal/config"
)

// injectTrace reuses the caller's X-Trace-Id or mints one, and echoes it on the response.
func injectTrace(re requestResponseStruct) requestResponseStruct {
	req := re.req
	trace := req.Header.Get(config.TraceHeader)
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace)
	re.writer.Header().Set(config.TraceHeader, trace)

	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	req.Header.Set(config.TraceHeader, trace)
	re.req = req.WithContext(ctx)

	re.logger.Debug("trace middleware injected")
	return re
}
