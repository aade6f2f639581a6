/*
Package session runs learning sessions on top of a session store.

It serializes operations per session ID with reference-counted local locks,
optionally backed by a distributed lock for multi-replica deployments, and
applies asynchronous content loads only to the session generation that
requested them.
*/
package session
