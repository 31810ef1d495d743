// Package api handles incoming HTTP requests for decks and study sessions:
// routing parameters, request validation and response formatting. It adapts
// HTTP concerns to the service layer and maps service errors to status codes
// and safe messages.
package api
