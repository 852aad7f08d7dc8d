// Package redirect renders the small HTML pages that forward a browser from
// the built site to a module's source tree.
//
// A template carries four placeholders:
//
//	$_MODULE_BASE_NAME      module identifier
//	$_DIRECTORY_NAME        output directory the page is written to
//	$_LINK_DIRECTORY_NAME   directory in the repository the page links to
//	$_GIT_REPOSITORY_TAG    tag or branch the link points at
//
// Each is replaced by the JSON string encoding of its value. No other
// escaping is applied.
package redirect
