package handlers

import (
	"io"

	"github.com/labstack/echo/v4"
)

// openUpload returns the multipart "image" part of the request.
func openUpload(c echo.Context) (io.ReadCloser, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, fieldError("image", "is required")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fieldError("image", "could not be read")
	}
	return f, nil
}
