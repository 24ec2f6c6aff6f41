package di

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ContainerKey is a type that can be used to store a container
// in the context.Context of an http.Request.
// By default, it is used in the C function and the HTTPMiddleware.
type ContainerKey string

// HTTPMiddleware adds a container in the request context.
//
// The container injected in each request is a new child container
// of the app container given as parameter.
// configure, if not nil, is called with the child container before the handler.
// It can register the objects that only live during the request.
// The child container is disposed when the handler returns,
// and the disposal errors are logged with the app container logger.
//
// The middleware can be used with a chi router:
//
//	r.Use(di.HTTPMiddleware(app, nil))
func HTTPMiddleware(app Container, configure func(c Container, r *http.Request) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := app.Logger().With(zap.String("request_id", middleware.GetReqID(r.Context())))

			// create a request container from the app container
			ctn, err := app.GetChildContainer()
			if err != nil {
				logger.Error("could not create the request container", zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			defer func() {
				if err := ctn.Dispose(); err != nil {
					logger.Warn("could not dispose the request container", zap.Error(err))
				}
			}()

			if configure != nil {
				if err := configure(ctn, r); err != nil {
					logger.Error("could not configure the request container", zap.Error(err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
			}

			// call the handler with a new request
			// containing the container in its context
			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), ContainerKey("di"), ctn),
			))
		})
	}
}

// C retrieves a Container from an interface.
// The function panics if the Container can not be retrieved.
//
// The interface can be:
//   - a Container
//   - an *http.Request containing a Container in its context.Context
//     for the ContainerKey("di") key.
//
// The function can be changed to match the needs of your application.
var C = func(i any) Container {
	if c, ok := i.(Container); ok {
		return c
	}

	r, ok := i.(*http.Request)
	if !ok {
		panic("could not get the container with C()")
	}

	c, ok := r.Context().Value(ContainerKey("di")).(Container)
	if !ok {
		panic("could not get the container from the given *http.Request")
	}

	return c
}

// Get is a shortcut for Resolve[T](C(i), opts...).
func Get[T any](i any, opts ...ResolveOption) (T, error) {
	return Resolve[T](C(i), opts...)
}
