// @title           ChatPDF API
// @version         1.0
// @description     Upload PDF documents to a session and chat with them.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email   ank.github@gmail.com

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package utils

//run redis (history backend)
//docker run -p 6379:6379 -d redis

//run qdrant (index backend)
//docker run -p 6333:6333 -p 6334:6334 -v vectorDBData:/qdrant/storage qdrant/qdrant

//run the text generation server
//docker run -p 8080:80 -v $PWD/data:/data ghcr.io/huggingface/text-generation-inference --model-id mistralai/Mistral-7B-Instruct-v0.2

//swagger init
//swag init -g cmd/api/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/api/docs
