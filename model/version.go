package model

// CurrentVersion is reported in the X-Version-ID response header.
var CurrentVersion = "1.0.0"

var BuildNumber string
var BuildDate string
var BuildHash string
