//go:build linux

package supervisor

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// pipePair is one unidirectional pipe. A closed end holds -1.
type pipePair struct {
	r, w int
}

func newPipePair() (pipePair, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		return pipePair{r: -1, w: -1}, err
	}
	return pipePair{r: fds[0], w: fds[1]}, nil
}

func (p *pipePair) closeRead() {
	if p.r >= 0 {
		_ = unix.Close(p.r)
		p.r = -1
	}
}

func (p *pipePair) closeWrite() {
	if p.w >= 0 {
		_ = unix.Close(p.w)
		p.w = -1
	}
}

func (p *pipePair) close() {
	p.closeRead()
	p.closeWrite()
}

// pipeSet holds the three data pipes and the notification pipe.
type pipeSet struct {
	stdout pipePair
	stderr pipePair
	result pipePair
	notify pipePair
}

// newPipeSet allocates all four pipes or none of them.
func newPipeSet() (*pipeSet, error) {
	s := &pipeSet{
		stdout: pipePair{r: -1, w: -1},
		stderr: pipePair{r: -1, w: -1},
		result: pipePair{r: -1, w: -1},
		notify: pipePair{r: -1, w: -1},
	}

	for _, p := range []*pipePair{&s.stdout, &s.stderr, &s.result, &s.notify} {
		pair, err := newPipePair()
		if err != nil {
			s.close()
			return nil, fmt.Errorf("pipe: %w", err)
		}
		*p = pair
	}

	if err := unix.SetNonblock(s.notify.w, true); err != nil {
		s.close()
		return nil, fmt.Errorf("pipe: %w", err)
	}
	return s, nil
}

func (s *pipeSet) close() {
	s.stdout.close()
	s.stderr.close()
	s.result.close()
	s.notify.close()
}
