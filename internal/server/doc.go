// Package server wires the portfolio API's HTTP surface.
//
// Every request passes the same middleware chain: CORS (with preflight
// short-circuit), the identity-enriching auth gateway, then the ordered
// access policy. Handlers can therefore assume that policy-level
// authorization already happened; they only add checks that need data,
// like matching the comment author on deletion.
//
// Routes follow the frontend's API contract: /api/auth/* for registration
// and login, /api/{projects,articles}/... for content plus the like
// endpoints, /api/career/* for the timeline, /api/comments/* for comments,
// and /api/upload plus /uploads/ for files.
package server
