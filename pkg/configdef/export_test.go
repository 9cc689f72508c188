package configdef

var ExceedsFrameBufferLimit = exceedsFrameBufferLimit
