/*
Package session implements the call session store.

A Manager maps a provider call ID to its ConversationState across independent,
stateless webhook requests. Every operation on a call ID is serialized by a
per-call mutex (reference counted, so idle calls hold no memory) and, when a
DistributedLocker is configured, by a lock shared between replicas.
*/
package session
