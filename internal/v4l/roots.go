package v4l

const (
	// CapturePrefix is the file name prefix of capture device nodes.
	CapturePrefix = "video"
	// SubdevPrefix is the file name prefix of sub-device nodes.
	SubdevPrefix = "v4l-subdev"

	defaultDevDir            = "/dev"
	defaultVideoSysfsPrefix  = "/sys/class/video4linux/video"
	defaultSubdevSysfsPrefix = "/sys/class/video4linux/v4l-subdev"
)

// Roots locates the device directory and the per-kind sysfs attribute trees.
//
// The sysfs prefixes are joined with the decimal node index, so the name of
// /dev/video3 is read from VideoSysfsPrefix + "3" + "/name".
type Roots struct {
	DevDir            string
	VideoSysfsPrefix  string
	SubdevSysfsPrefix string
}

// DefaultRoots returns the standard Linux locations.
func DefaultRoots() Roots {
	return Roots{
		DevDir:            defaultDevDir,
		VideoSysfsPrefix:  defaultVideoSysfsPrefix,
		SubdevSysfsPrefix: defaultSubdevSysfsPrefix,
	}
}

func (r Roots) withDefaults() Roots {
	def := DefaultRoots()
	if r.DevDir == "" {
		r.DevDir = def.DevDir
	}
	if r.VideoSysfsPrefix == "" {
		r.VideoSysfsPrefix = def.VideoSysfsPrefix
	}
	if r.SubdevSysfsPrefix == "" {
		r.SubdevSysfsPrefix = def.SubdevSysfsPrefix
	}
	return r
}

// sysfsPrefix returns the attribute tree prefix for the given kind.
func (r Roots) sysfsPrefix(kind Kind) string {
	if kind == KindSubDevice {
		return r.SubdevSysfsPrefix
	}
	return r.VideoSysfsPrefix
}
