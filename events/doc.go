// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package events publishes committed election changes to Kafka.

NewPublisher returns a Kafka-backed Publisher when KAFKA_BROKER is set and
a no-op otherwise. Messages are JSON encoded Events keyed by subject, so
all events for one volunteer land on the same partition:

	{"type":"vote.cast","subject":"21cs001","attributes":{"position":"Secretary","candidate_id":"3","receipt":"..."},"at":"..."}

Publishing happens after commit and failures are only logged.
*/
package events
