// Package deps checks that the external MKVToolNix binaries vx delegates to
// are installed and recent enough.
//
// Gate performs the precondition: locate each binary, run its version report,
// parse the first "v<digits>(.<digits>)*" token, and compare it with the
// compiled-in minimum. A version report that outlives its deadline is a
// services.ErrToolTimeout. Gate failures are precondition errors (services.ErrToolNotFound,
// services.ErrToolTooOld) and abort a batch before any video is touched.
package deps
