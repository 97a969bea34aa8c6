// Package main Prof Tutoring API
//
//	@title						Prof Tutoring API
//	@version					1.0
//	@description				Backend API for the Prof tutoring assistant
//
//	@contact.name				Prof Support
//
//	@host						localhost:3001
//	@BasePath					/api
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
//
//	@tag.name					Auth
//	@tag.description			Accounts and sessions
//
//	@tag.name					Chat
//	@tag.description			Tutoring chat and conversation history
package main
