package session

import "github.com/Veraticus/corrosion-lens/internal/common"

// NoticeKind classifies a user-visible notice.
type NoticeKind int

// Notice kinds.
const (
	NoticePrecondition NoticeKind = iota
	NoticeFailure
)

// Notice is a message the view layer must surface to the user.
type Notice struct {
	Err     error
	Message string
	Kind    NoticeKind
}

// Notifier receives notices as they are raised.
type Notifier interface {
	Notify(Notice)
}

func preconditionNotice(err error) Notice {
	return Notice{
		Kind:    NoticePrecondition,
		Message: common.UserMessage(err),
		Err:     err,
	}
}

func failureNotice(err error) Notice {
	return Notice{
		Kind:    NoticeFailure,
		Message: common.NoticeFailure,
		Err:     err,
	}
}
