// Package pagination provides the page flags, page metadata and client-side
// sorting used by the video list commands.
//
// The capture server pages recordings itself; this package validates the
// requested page, derives the footer metadata from the reported total, and
// orders the returned page by a video field.
package pagination
