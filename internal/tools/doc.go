// Package tools implements the tool registry: the catalog of typed
// operations a reasoning backend may request, schema validation of tool
// arguments, and the non-throwing invocation boundary.
//
// Tools are registered once at startup and the registry is sealed before
// serving; registration validates each spec so that schema mistakes fail at
// boot rather than at call time.
//
// Invoke never lets a handler failure escape: unknown tools, argument
// validation failures, handler errors, and handler panics are all converted
// into a textual Result. The agent executor treats every Result, success or
// failure, as an observation to feed back into the reasoning loop; an
// escaping error would abort the whole conversation turn instead of letting
// the backend adapt.
package tools
