package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/prom"
	"github.com/otakuhub/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
	opts []RouteOption,
) gin.HandlerFunc {
	cfg := routeConfig{successStatus: http.StatusOK}
	if method == http.MethodDelete {
		cfg.successStatus = http.StatusNoContent
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	befores := append([]MiddlewareFunc{}, router.befores...)
	return func(ginCtx *gin.Context) {
		startTime := time.Now()
		ctx := router.baseCtx

		resp, err := func() (*Response, error) {
			for _, before := range befores {
				next, err := before(ctx, ginCtx.Request)
				if err != nil {
					return nil, err
				}

				if next != nil {
					ctx = next
				}
			}

			var req Request
			if err := bindRequest(ginCtx, method, &req); err != nil {
				return nil, errorx.New(errorx.BadRequest, "Cannot bind the request")
			}

			return handler(ctx, &req)
		}()

		status := cfg.successStatus
		if err != nil {
			status = httpStatus(err)
			ginCtx.JSON(status, newErrorResponse(err))
		} else if status == http.StatusNoContent {
			ginCtx.Status(status)
		} else {
			ginCtx.JSON(status, newResponse(resp))
		}

		logRequest(ctx, ginCtx, status, err)
		prom.ObserveRequest(method, ginCtx.FullPath(), status, time.Since(startTime))
	}
}

func bindRequest(ginCtx *gin.Context, method string, req any) error {
	if len(ginCtx.Params) > 0 {
		if err := ginCtx.ShouldBindUri(req); err != nil {
			return err
		}
	}

	switch method {
	case http.MethodGet, http.MethodDelete:
		return ginCtx.ShouldBindQuery(req)
	default:
		if ginCtx.Request.ContentLength == 0 {
			return nil
		}

		return ginCtx.ShouldBindJSON(req)
	}
}

func logRequest(ctx context.Context, ginCtx *gin.Context, status int, err error) {
	log := xcontext.Logger(ctx)
	info := ginCtx.Request.Method + " " + ginCtx.Request.URL.Path
	switch {
	case err == nil:
		log.Infof("%s | %d", info, status)
	case status >= http.StatusInternalServerError:
		log.Errorf("%s | %d | %v", info, status, err)
	default:
		log.Warnf("%s | %d | %v", info, status, err)
	}
}
