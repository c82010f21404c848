// Package internal contains private implementation details for the patch
// module. These packages are not intended for external use and may change
// without notice.
//
// The internal packages are organized as follows:
//   - planner: Maps an edit window onto an ordered multipart plan
//   - executor: Issues the copy and upload parts and finishes the session
//   - s3api: Narrow store interface enabling mock-based tests
//   - validation: Input validation logic
//   - testutil: Mocks, an in-memory store, and LocalStack helpers
package internal
