package willexec

var GuideFallback = guideFallback
