package mlapi

import "errors"

// SDKName is the file name of the vendor driver library.
const SDKName = "MysticLight_SDK.dll"

var ErrUnsupportedPlatform = errors.New("the Mystic Light SDK is only available on windows")
