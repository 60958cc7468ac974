package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *application) routes() http.Handler {
	router := chi.NewRouter()

	router.NotFound(app.notFoundErrorResponse)
	router.MethodNotAllowed(app.methodNotAllowedErrorResponse)

	router.Use(app.recoverPanic)
	router.Use(middleware.RequestID)
	router.Use(app.logRequest)
	router.Use(app.recordMetrics)
	router.Use(app.enableCORS)
	router.Use(app.rateLimit)
	router.Use(app.authenticate)

	router.Get("/v1/healthcheck", app.healthCheckHandler)
	router.Method(http.MethodGet, "/metrics", app.metrics.handler())

	// user service
	router.Post("/api/user/register/", app.registerUserHandler)
	router.Post("/api/token/", app.loginUserHandler)
	router.Post("/api/token/refresh", app.refreshTokenHandler)
	router.Get("/api/users/", app.requireAuthUser(app.listUsersHandler))
	router.Get("/api/user/{id}/", app.requireAuthUser(app.showUserHandler))
	router.Put("/api/user/{id}/", app.requireAuthUser(app.updateUserHandler))
	router.Delete("/api/user/{id}/", app.requireAuthUser(app.deleteUserHandler))

	// blog service
	router.Get("/api/blogs/", app.requireAuthUser(app.listBlogsHandler))
	router.Post("/api/blogs/", app.requireAuthUser(app.createBlogHandler))
	router.Get("/api/blogs/home/", app.requireAuthUser(app.listAllBlogsHandler))
	router.Get("/api/blogs/{id}/", app.requireAuthUser(app.showBlogHandler))
	router.Put("/api/blogs/update/{id}/", app.requireAuthUser(app.updateBlogHandler))
	router.Patch("/api/blogs/update/{id}/", app.requireAuthUser(app.updateBlogHandler))
	router.Delete("/api/blogs/delete/{id}/", app.requireAuthUser(app.deleteBlogHandler))
	router.Post("/api/blogs/{id}/like/", app.requireAuthUser(app.likeBlogHandler))
	router.Delete("/api/blogs/{id}/like/", app.requireAuthUser(app.unlikeBlogHandler))
	router.Get("/api/blogs/{id}/comments/", app.requireAuthUser(app.listCommentsHandler))
	router.Post("/api/blogs/{id}/comments/", app.requireAuthUser(app.createCommentHandler))
	router.Delete("/api/blogs/comments/delete/{id}/", app.requireAuthUser(app.deleteCommentHandler))

	return router
}
