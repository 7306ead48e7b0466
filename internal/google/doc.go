// Package google provides shared OAuth2 configuration and token handling
// for the Google Calendar and Tasks gateways.
package google
