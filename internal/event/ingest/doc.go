// Package ingest reads event-camera batches from a capture file or a live
// UDP feed into event.EventArray values, grounded on the teacher's
// internal/lidar/network package (pcap.go + pcap_interface.go +
// udp_interface.go). Both sources decode the same simple wire record and
// satisfy a shared Source interface.
package ingest
