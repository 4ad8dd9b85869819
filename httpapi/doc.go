// Package httpapi exposes the book catalog over HTTP.
//
// Every response body is a Response envelope: {"status":"SUCCESS","body":...} or
// {"status":"FAIL","error":"..."}. Exactly one of body and error is present.
//
// Routes:
//
//	GET    /books          list all books
//	GET    /books/{isbn}   get one book, 404 if absent
//	POST   /books          insert the book in the body
//	PUT    /books/{isbn}   replace the book stored under isbn, the body may carry a new isbn
//	DELETE /books/{isbn}   delete the book
//	GET    /health         store connectivity
//
// Store failures answer 500, undecodable bodies 400.
package httpapi
