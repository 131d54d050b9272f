// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers.

# Request Logging

WithLogging wraps a handler and logs start/completion with duration:

	mux.Get("/rooms", middleware.WithLogging(roomHandler.ListRooms))

# JSON Helpers

JSONResponse and ErrorResponse write consistent JSON bodies:

	middleware.JSONResponse(w, http.StatusOK, response)
	middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")

ErrorResponse emits the models.ErrorResponse shape with the standard
status text as the error field.

ParseJSONBody decodes a request body into a struct and closes the body.

CORS is handled at the router via go-chi/cors, not here.
*/
package middleware
