// Package telegram delivers posters and status text through the Telegram Bot API.
//
// Text goes to sendMessage as a JSON body and images go to sendPhoto as multipart form data.
// A missing bot token or chat ID is reported as a *ConfigurationError before any request is
// made. Each call makes exactly one request; success is a 2xx status and the raw response body
// is returned either way.
//
// Authentication requires a bot token (from @BotFather) and chat ID.
package telegram
