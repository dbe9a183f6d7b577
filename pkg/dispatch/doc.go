// Package dispatch composes the four pipeline stages (normalize, resolve
// account, resolve template, render) and submits the result to the mail
// transport. The response contract is fixed: statusCode 200 with a body of
// "Email sent!" or "ERROR email not sent!", regardless of what degraded
// along the way.
package dispatch
