// Package classify derives a single human-meaningful lifecycle state for a
// tracked video from the raw status of its background jobs.
package classify

// State is the closed enumeration of pipeline states a video can be in.
type State string

const (
	// Queueing phase
	StateScheduled State = "scheduled"
	StateQueued    State = "queued"
	StatePreparing State = "preparing"

	// Download phase
	StateDownloadStarting State = "download_starting"
	StateDownloading      State = "downloading"
	StateDownloaded       State = "downloaded"
	StateDownloadFailed   State = "download_failed"

	// Edit phase
	StateEditStarting State = "edit_starting"
	StateEditing      State = "editing"
	StateEdited       State = "edited"
	StateEditFailed   State = "edit_failed"

	// Browser/session phase
	StateBrowserChecking State = "browser_checking"
	StateBrowserLogin    State = "browser_login"
	StateBrowser2FA      State = "browser_2fa"
	StateBrowserReady    State = "browser_ready"
	StateBrowserError    State = "browser_error"

	// Upload phase
	StateUploadPreparing  State = "upload_preparing"
	StateFormFilling      State = "form_filling"
	StateFileUploading    State = "file_uploading"
	StateTikTokProcessing State = "tiktok_processing"
	StateFinalizing       State = "finalizing"
	StatePublished        State = "published"
	StateUploadFailed     State = "upload_failed"
	StateReviewing        State = "reviewing"

	// Special
	StateCaptchaRequired State = "captcha_required"
	StatePaused          State = "paused"
	StateRetrying        State = "retrying"
	StateSkipped         State = "skipped"
	StateDuplicate       State = "duplicate"
)

// Action is the suggested recovery action for a state, if any.
type Action string

const (
	ActionNone    Action = ""
	ActionRetry   Action = "retry"
	ActionCaptcha Action = "captcha"
	ActionLogin   Action = "login"
)

type Color string

const (
	ColorGray   Color = "gray"
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
	ColorGreen  Color = "green"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
)

var colorHex = map[Color]string{
	ColorGray:   "#9ca3af",
	ColorBlue:   "#3b82f6",
	ColorYellow: "#eab308",
	ColorPurple: "#8b5cf6",
	ColorGreen:  "#22c55e",
	ColorOrange: "#f97316",
	ColorRed:    "#ef4444",
}

type stateMeta struct {
	color   Color
	icon    string
	message string
}

var stateInfo = map[State]stateMeta{
	StateScheduled: {ColorGray, "clock", "Scheduled"},
	StateQueued:    {ColorBlue, "hourglass", "Queued for publishing"},
	StatePreparing: {ColorBlue, "gear", "Preparing"},

	StateDownloadStarting: {ColorBlue, "download", "Starting download"},
	StateDownloading:      {ColorBlue, "download", "Downloading video"},
	StateDownloaded:       {ColorGreen, "check", "Download complete"},
	StateDownloadFailed:   {ColorRed, "x", "Download failed"},

	StateEditStarting: {ColorYellow, "scissors", "Starting edit"},
	StateEditing:      {ColorYellow, "scissors", "Editing video"},
	StateEdited:       {ColorGreen, "check", "Edit complete"},
	StateEditFailed:   {ColorRed, "x", "Edit failed"},

	StateBrowserChecking: {ColorPurple, "globe", "Checking browser session"},
	StateBrowserLogin:    {ColorPurple, "key", "Waiting for login"},
	StateBrowser2FA:      {ColorPurple, "shield", "Waiting for 2FA"},
	StateBrowserReady:    {ColorPurple, "globe", "Browser ready"},
	StateBrowserError:    {ColorRed, "globe", "Browser session error"},

	StateUploadPreparing:  {ColorYellow, "upload", "Preparing upload"},
	StateFormFilling:      {ColorYellow, "pencil", "Filling post form"},
	StateFileUploading:    {ColorYellow, "upload", "Uploading video file"},
	StateTikTokProcessing: {ColorPurple, "gear", "TikTok is processing"},
	StateFinalizing:       {ColorYellow, "flag", "Finalizing post"},
	StatePublished:        {ColorGreen, "check", "Published"},
	StateUploadFailed:     {ColorRed, "x", "Upload failed"},
	StateReviewing:        {ColorOrange, "eye", "Under review"},

	StateCaptchaRequired: {ColorOrange, "shield", "CAPTCHA required"},
	StatePaused:          {ColorGray, "pause", "Paused"},
	StateRetrying:        {ColorYellow, "refresh", "Retrying"},
	StateSkipped:         {ColorGray, "skip", "Skipped"},
	StateDuplicate:       {ColorOrange, "copy", "Duplicate video"},
}

// Color returns the presentation color name for the state.
func (s State) Color() Color {
	if m, ok := stateInfo[s]; ok {
		return m.color
	}
	return ColorGray
}

// Hex returns the fixed hex constant for the state's color.
func (s State) Hex() string {
	return colorHex[s.Color()]
}

// Icon returns the presentation icon hint for the state.
func (s State) Icon() string {
	if m, ok := stateInfo[s]; ok {
		return m.icon
	}
	return "clock"
}

// DefaultMessage returns the human-readable description for the state.
func (s State) DefaultMessage() string {
	if m, ok := stateInfo[s]; ok {
		return m.message
	}
	return "Scheduled"
}

// States lists every member of the enumeration.
func States() []State {
	out := make([]State, 0, len(stateInfo))
	for s := range stateInfo {
		out = append(out, s)
	}
	return out
}
