package source

// RingBuffer keeps the most recent lines pushed into it. It is not safe
// for concurrent use; each tail owns its buffer.
type RingBuffer struct {
	buffer []string
	size   int
	head   int
	count  int
}

// NewRingBuffer creates a ring buffer with the specified capacity
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = 100 // Default
	}
	return &RingBuffer{
		buffer: make([]string, size),
		size:   size,
	}
}

// Push adds a line, evicting the oldest when full
func (rb *RingBuffer) Push(line string) {
	rb.buffer[rb.head] = line
	rb.head = (rb.head + 1) % rb.size
	if rb.count < rb.size {
		rb.count++
	}
}

// Lines returns all lines in order (oldest first)
func (rb *RingBuffer) Lines() []string {
	result := make([]string, rb.count)

	if rb.count < rb.size {
		// Buffer not full, start from 0
		copy(result, rb.buffer[:rb.count])
	} else {
		// Buffer full, start from head (oldest)
		copy(result, rb.buffer[rb.head:])
		copy(result[rb.size-rb.head:], rb.buffer[:rb.head])
	}

	return result
}

// Count returns the number of lines in the buffer
func (rb *RingBuffer) Count() int {
	return rb.count
}
