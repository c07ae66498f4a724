// Package printing renders receipt schemas into ESC/POS command streams
// and stores the results.
//
// A render walks the schema depth first in declaration order. Every leaf
// is resolved through a steps.Registry; unknown names become error markers
// and the walk carries on. The render always ends with the finish step so
// the printer is left with normal text modes, a cut and a drawer kick as
// the device allows.
package printing
