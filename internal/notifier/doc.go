// Package notifier defines how posters and status text leave the process.
//
// A Notifier delivers at most once per call and never retries. The Telegram implementation
// lives in the telegram package; DryRun writes what would be sent to a writer and keeps the
// photo on local disk.
package notifier
