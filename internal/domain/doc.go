// Package domain contains the core business entities of the dialog cards
// service: card definitions with their faces and media references, decks with
// their study behaviour, and the resumable session snapshot. It is independent
// of any specific infrastructure or delivery mechanism.
package domain
