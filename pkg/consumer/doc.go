// Package consumer is the pub/sub trigger surface of the emailer: it reads
// raw event envelopes from a Kafka topic and feeds each one through the
// dispatch pipeline. Events are committed whether or not the email went
// out; there is no redelivery or dead-lettering.
package consumer
