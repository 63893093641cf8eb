// Package docs B2BAK Marketplace API documentation
package docs

// Swagger documentation info
// @title B2BAK Marketplace API
// @version 1.0
// @description Procurement workflow backend for buyer and vendor organizations

// @contact.name API Support
// @contact.email support@b2bak.dev

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// @tag.name auth
// @tag.description Registration, login and session introspection

// @tag.name requests
// @tag.description Procurement request lifecycle

// @tag.name quotes
// @tag.description Vendor quote lifecycle

// @tag.name deals
// @tag.description Deals, invoicing and payment

// @tag.name messages
// @tag.description Deal message threads

// @tag.name invites
// @tag.description Organization member invites

// @tag.name notifications
// @tag.description Notifications and the live stream

// @tag.name audit
// @tag.description Append-only audit trail
