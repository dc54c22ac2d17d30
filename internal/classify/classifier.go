package classify

import (
	"strings"

	"github.com/caubebinhan/boembotiktok-sub000/internal/model"
)

// VideoStatus is the classifier output: one lifecycle state plus display
// metadata derived deterministically from it. It is a view, recomputed fresh
// from the current job snapshot, never persisted.
type VideoStatus struct {
	State    State  `json:"state"`
	Message  string `json:"message"`
	Progress int    `json:"progress,omitempty"` // 0-100, 0 when unknown
	Action   Action `json:"action,omitempty"`
	Color    string `json:"color"`
	Icon     string `json:"icon"`
}

// Classify maps a video plus its related jobs to a single pipeline state.
// The publish job always takes priority over the download job when both are
// present. It is total: malformed payloads degrade to best-effort defaults
// and the worst case is the generic scheduled state.
func Classify(video model.Video, download, publish *model.Job) VideoStatus {
	if publish != nil {
		return classifyPublish(publish)
	}
	if download != nil {
		return classifyDownload(download)
	}
	return statusFor(StateScheduled, "", 0, ActionNone)
}

func classifyPublish(j *model.Job) VideoStatus {
	switch {
	case j.IsFailed():
		state, action := failureState(failureText(j))
		return statusFor(state, j.ErrorMessage, 0, action)
	case j.IsCompleted():
		if j.Result().IsReviewing || mentionsReview(j.Message()) {
			return statusFor(StateReviewing, "", 0, ActionNone)
		}
		return statusFor(StatePublished, "", 0, ActionNone)
	case j.IsRunning():
		return statusFor(runningUploadState(j.Message()), j.Message(), progress(j), ActionNone)
	case j.IsPending():
		return statusFor(StateQueued, "", 0, ActionNone)
	default:
		return statusFor(StateScheduled, "", 0, ActionNone)
	}
}

func classifyDownload(j *model.Job) VideoStatus {
	switch {
	case j.IsFailed():
		return statusFor(StateDownloadFailed, j.ErrorMessage, 0, ActionRetry)
	case j.IsCompleted():
		return statusFor(StateDownloaded, "", 0, ActionNone)
	case j.IsRunning():
		return statusFor(StateDownloading, "", progress(j), ActionNone)
	default:
		return statusFor(StateScheduled, "", 0, ActionNone)
	}
}

// failureText gathers every piece of free text a failed job carries; the
// status itself is included because upstream encodes failure causes there
// too ("failed: CAPTCHA detected").
func failureText(j *model.Job) string {
	return strings.Join([]string{j.Status, j.ErrorMessage, j.Result().Message, j.Data().Message}, " ")
}

// failureState translates a publish failure message into a state and
// recovery action. The substrings encode real upstream message formats.
func failureState(msg string) (State, Action) {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "captcha"):
		return StateCaptchaRequired, ActionCaptcha
	case strings.Contains(m, "session"):
		return StateBrowserError, ActionLogin
	default:
		return StateUploadFailed, ActionRetry
	}
}

// runningUploadState translates an in-progress publish message into the most
// specific upload state it implies. First match wins; order encodes upstream
// message precedence.
func runningUploadState(msg string) State {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "uploading"):
		return StateFileUploading
	case strings.Contains(m, "caption"), strings.Contains(m, "setting"):
		return StateFormFilling
	case strings.Contains(m, "post"), strings.Contains(m, "finalizing"):
		return StateFinalizing
	case strings.Contains(m, "browser"), strings.Contains(m, "login"):
		return StateBrowserChecking
	case strings.Contains(m, "processing"):
		return StateTikTokProcessing
	case strings.Contains(m, "review"), strings.Contains(m, "checking"):
		return StateReviewing
	default:
		return StateUploadPreparing
	}
}

func mentionsReview(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "review") || strings.Contains(m, "checking") || strings.Contains(m, "private")
}

func progress(j *model.Job) int {
	if p := j.Result().Progress; p > 0 {
		return clampProgress(p)
	}
	return clampProgress(j.Data().Progress)
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func statusFor(state State, message string, progress int, action Action) VideoStatus {
	if message == "" {
		message = state.DefaultMessage()
	}
	return VideoStatus{
		State:    state,
		Message:  message,
		Progress: progress,
		Action:   action,
		Color:    state.Hex(),
		Icon:     state.Icon(),
	}
}
