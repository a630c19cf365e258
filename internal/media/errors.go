package media

import "github.com/pkg/errors"

var (
	// ErrUnreadableMedia means the source container could not be opened or
	// carries no video stream. Always job fatal.
	ErrUnreadableMedia = errors.New("unreadable media")

	// ErrAudioLoad means the music track failed to load or probe. Non fatal:
	// the job degrades to keeping each segment's original audio.
	ErrAudioLoad = errors.New("audio track load failed")

	// ErrCaptionRender means a caption layer could not be built. Non fatal:
	// the affected clip is produced without a caption.
	ErrCaptionRender = errors.New("caption render failed")
)
