package eventbus

import "strings"

const (
	// StreamName is the JetStream stream carrying every lastman subject.
	StreamName = "lastman"
	// StreamSubjects is the subject filter of StreamName.
	StreamSubjects = "lastman.>"

	// FixtureResultRecordedV1 carries fixture results from an external feed.
	FixtureResultRecordedV1 = "lastman.fixture.result.recorded.v1"
)

// NotificationTopic is the subject a delivered notification of the given
// type is published on, e.g. lastman.notification.eliminated.v1.
func NotificationTopic(notificationType string) string {
	return "lastman.notification." + strings.ToLower(notificationType) + ".v1"
}
