// Package models holds the transport-facing request and response shapes of
// the metering point API. Requests validate and parse their identity fields;
// master data stays raw until the domain builder sees it.
package models
