// Package common holds helpers shared by the tool families: typed
// argument extraction, account resolution and the authorization
// walkthrough shown when no Google token is stored.
package common
