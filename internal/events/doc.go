// Package events carries learner progress milestones from the session service
// to whoever wants to hear about them, without the service knowing the
// listeners.
//
// The primary components are:
// - ProgressEvent: a milestone such as a completed round or a mastered deck
// - EventEmitter and InMemoryEventEmitter: publish events to handlers
// - LoggingHandler: records events in the structured log
package events
