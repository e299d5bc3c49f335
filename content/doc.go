// Package content implements the external content provider client and
// content-server address helpers.
//
// The provider contract is fixed by the outside service: a POST of a JSON
// object describing session/team context plus a contentType field ("text" or
// "webpage"); success is HTTP 200 with the replacement content as the raw
// response body, any other status is a content-acquisition failure for the
// requesting activity.
package content
