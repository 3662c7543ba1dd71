// Package e2e exercises the full ingestion and search path with a realistic
// documentation corpus and multiple queries.
package e2e

import "strings"

// Page is one documentation page in the corpus: a source name and its
// markdown body. Each section heading becomes one indexed chunk.
type Page struct {
	Source   string
	URL      string
	Markdown string
}

// QueryCase defines a query and the chunk title(s) that must appear in the
// results. At least one of ExpectedTitles must be present.
type QueryCase struct {
	Query          string
	Keyword        bool
	Fuzzy          bool
	Source         string
	ExpectedTitles []string
	Description    string
}

// Corpus holds pages and query cases.
type Corpus struct {
	Pages []Page
	Cases []QueryCase
}

// BuildCorpus returns a corpus of Spring documentation pages with query cases.
// Every section carries a distinctive phrase so queries can assert the right
// chunk comes back.
func BuildCorpus() *Corpus {
	return &Corpus{
		Pages: []Page{
			{
				Source: "spring-boot",
				URL:    "https://docs.spring.io/spring-boot/reference",
				Markdown: page(
					section("Auto-configuration", `Spring Boot auto-configuration attempts to configure your application
based on the jar dependencies you have added. Auto-configuration classes are
annotated with @AutoConfiguration and applied conditionally.`),
					section("Actuator Endpoints", `Spring Boot Actuator exposes operational endpoints such as health,
metrics, and env over HTTP. Enable endpoints with the
management.endpoints.web.exposure.include property.`),
					section("External Configuration", `Spring Boot lets you externalize configuration with properties files,
YAML files, environment variables, and command-line arguments. Property values
can be injected with the @Value annotation or bound with @ConfigurationProperties.`),
				),
			},
			{
				Source: "spring-security",
				URL:    "https://docs.spring.io/spring-security/reference",
				Markdown: page(
					section("JWT Resource Server", `Spring Security supports protecting REST endpoints with JWT bearer
tokens. Configure oauth2ResourceServer in the security filter chain and expose
a JwtDecoder bean that validates token signatures.`),
					section("Password Encoding", `Spring Security provides the PasswordEncoder abstraction for hashing
credentials. BCryptPasswordEncoder is the recommended implementation for new
applications storing user passwords.`),
					section("Method Security", `Method security lets you annotate service methods with @PreAuthorize
and @PostAuthorize expressions. Enable it with @EnableMethodSecurity on a
configuration class.`),
				),
			},
			{
				Source: "spring-data-jpa",
				URL:    "https://docs.spring.io/spring-data/jpa/reference",
				Markdown: page(
					section("Repository Interfaces", `Spring Data JPA generates repository implementations from interfaces.
Extend JpaRepository to inherit save, findById, and delete operations backed by
an EntityManager.`),
					section("Derived Query Methods", `Query methods are derived from method names such as
findByLastnameAndFirstname. Spring Data JPA parses the method name and creates
the JPQL query for the entity automatically.`),
					section("Transactions in Repositories", `Repository methods run inside transactions. CRUD methods are
transactional by default and custom methods can be annotated with
@Transactional to adjust propagation or read-only hints.`),
				),
			},
			{
				Source: "spring-framework",
				URL:    "https://docs.spring.io/spring-framework/reference",
				Markdown: page(
					section("Dependency Injection Container", `The Spring IoC container instantiates, configures, and assembles
beans. Dependencies are injected through constructors, setters, or fields
annotated with @Autowired.`),
					section("WebFlux Reactive Streams", `Spring WebFlux is the reactive web framework built on Project Reactor.
Controllers return Mono and Flux publishers and run on a non-blocking
Netty server by default.`),
					section("Cache Abstraction", `The Spring cache abstraction applies caching to methods with the
@Cacheable annotation. Cache providers such as Caffeine or Redis plug in
through the CacheManager interface.`),
				),
			},
			{
				Source: "spring-kafka",
				URL:    "https://docs.spring.io/spring-kafka/reference",
				Markdown: page(
					section("Kafka Listener Containers", `Spring for Apache Kafka wraps consumers in listener containers. Methods
annotated with @KafkaListener receive records from assigned topic partitions
and acknowledge offsets after processing.`),
					section("Producing Messages with KafkaTemplate", `KafkaTemplate wraps a producer and provides send methods returning a
CompletableFuture. Serializers for keys and values are configured through
producer factory properties.`),
				),
			},
			{
				Source: "spring-batch",
				URL:    "https://docs.spring.io/spring-batch/reference",
				Markdown: page(
					section("Chunk-oriented Processing", `Spring Batch reads items one at a time and writes them in configurable
chunks. A chunk-oriented step combines an ItemReader, an optional
ItemProcessor, and an ItemWriter inside a transaction.`),
					section("Job Restartability", `Job executions record their state in the job repository. A failed job
can be restarted and continues from the last committed chunk instead of
reprocessing the whole input.`),
				),
			},
		},
		Cases: []QueryCase{
			{
				Query:          "actuator endpoints health metrics",
				Keyword:        true,
				ExpectedTitles: []string{"Actuator Endpoints"},
				Description:    "keyword match on actuator section",
			},
			{
				Query:          "jwt bearer resource server",
				Keyword:        true,
				ExpectedTitles: []string{"JWT Resource Server"},
				Description:    "keyword match on jwt section",
			},
			{
				Query:          "repository findById JpaRepository",
				Keyword:        true,
				ExpectedTitles: []string{"Repository Interfaces"},
				Description:    "keyword match on repository section",
			},
			{
				Query:          "kafkalistener topic partitions",
				Keyword:        true,
				ExpectedTitles: []string{"Kafka Listener Containers"},
				Description:    "keyword match is case-insensitive",
			},
			{
				Query:          "autowired dependency injection container",
				Keyword:        true,
				ExpectedTitles: []string{"Dependency Injection Container"},
				Description:    "keyword match on ioc section",
			},
			{
				Query:          "actuatr endpionts",
				Keyword:        true,
				Fuzzy:          true,
				ExpectedTitles: []string{"Actuator Endpoints"},
				Description:    "fuzzy match tolerates typos",
			},
			{
				Query:          "chunk transaction reader writer",
				Keyword:        true,
				Source:         "spring-batch",
				ExpectedTitles: []string{"Chunk-oriented Processing"},
				Description:    "source filter restricts candidates",
			},
			{
				Query:          "security configuration jwt rest spring",
				ExpectedTitles: []string{"JWT Resource Server", "Method Security"},
				Description:    "semantic search surfaces security content",
			},
		},
	}
}

func page(sections ...string) string {
	return strings.Join(sections, "\n\n")
}

func section(title, body string) string {
	return "# " + title + "\n\n" + body + "\n"
}
