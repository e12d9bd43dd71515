package enums

import "fmt"

// MediaSlot names the media position an asset occupies on a draft.
type MediaSlot string

const (
	MediaSlotAvatar  MediaSlot = "avatar"
	MediaSlotBanner  MediaSlot = "banner"
	MediaSlotCover   MediaSlot = "cover"
	MediaSlotPrimary MediaSlot = "primary"
)

var validMediaSlots = []MediaSlot{
	MediaSlotAvatar,
	MediaSlotBanner,
	MediaSlotCover,
	MediaSlotPrimary,
}

// String implements fmt.Stringer.
func (s MediaSlot) String() string {
	return string(s)
}

// IsValid reports whether the value is a known MediaSlot.
func (s MediaSlot) IsValid() bool {
	for _, candidate := range validMediaSlots {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseMediaSlot converts raw input into a MediaSlot.
func ParseMediaSlot(value string) (MediaSlot, error) {
	for _, candidate := range validMediaSlots {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media slot %q", value)
}

// MediaStatus tracks an asset through staging, promotion, and release.
type MediaStatus string

const (
	// MediaStatusStaged means the bytes live in the staging bucket and the
	// asset is still owned by a draft.
	MediaStatusStaged MediaStatus = "staged"
	// MediaStatusStored means the asset was promoted to the public bucket
	// during submission.
	MediaStatusStored MediaStatus = "stored"
	// MediaStatusReleased means the staged object was removed after being
	// superseded or on draft teardown.
	MediaStatusReleased MediaStatus = "released"
)

var validMediaStatuses = []MediaStatus{MediaStatusStaged, MediaStatusStored, MediaStatusReleased}

// String implements fmt.Stringer.
func (s MediaStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known MediaStatus.
func (s MediaStatus) IsValid() bool {
	for _, candidate := range validMediaStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
