// @title           Knowledge Base Chat API
// @version         1.0
// @description     Answers questions from a managed knowledge base with cited sources.

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
// @schemes   http https
package utils

//swagger init
//swag init -g cmd/api/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/api/docs

//run the chat ui against a local gateway
//go run ./cmd/chat --api-url http://localhost:8000/v1/chat
