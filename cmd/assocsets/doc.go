// Command assocsets converts labeled detection histories into track association
// training sets.
//
// Input is a ';' separated CSV with columns
// history;frame;label;x;y;width;height;confidence. The first output line holds
// the trainer configuration (C, epsilon, solver options, feature dimensions).
// Every following line is one assignment problem with the similarity features
// of each (detection, track) pair and the ground-truth track index (or -1) of
// each detection, ready for an out-of-process structured trainer.
package main
